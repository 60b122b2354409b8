package handler

import "github.com/authgate/authgate/internal/core/ports"

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
	}
}

func toProductResponse(v ports.ProductView) productResponse {
	resp := productResponse{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		Price:         v.Price,
		StockQuantity: v.StockQuantity,
		SKU:           v.SKU,
		CreatedAt:     v.CreatedAt.UTC(),
	}
	if !v.UpdatedAt.IsZero() {
		updated := v.UpdatedAt.UTC()
		resp.UpdatedAt = &updated
	}
	return resp
}

func toProductResponses(views []ports.ProductView) []productResponse {
	out := make([]productResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toProductResponse(v))
	}
	return out
}
