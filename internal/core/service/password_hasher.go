package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate/internal/core/domain"
)

// Supported password hashing schemes.
const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
	// SchemeSHA256 is the legacy unsalted digest. It is deterministic and kept
	// so that stored digests of that format continue to verify.
	SchemeSHA256 = "sha256"
)

const argon2idPrefix = "$argon2id$"

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen int
	keyLen  uint32
}

var defaultArgon2Params = argon2Params{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	saltLen: 16,
	keyLen:  32,
}

// PasswordHasher hashes new credentials with a configured scheme and verifies
// digests of any supported scheme, detected from the digest format.
type PasswordHasher struct {
	scheme     string
	bcryptCost int
	argon      argon2Params
}

// HasherOption customises a PasswordHasher.
type HasherOption func(*PasswordHasher)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) HasherOption {
	return func(h *PasswordHasher) { h.bcryptCost = cost }
}

// NewPasswordHasher returns a hasher for scheme. An empty scheme selects bcrypt.
func NewPasswordHasher(scheme string, opts ...HasherOption) (*PasswordHasher, error) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	if scheme == "" {
		scheme = SchemeBcrypt
	}
	switch scheme {
	case SchemeBcrypt, SchemeArgon2id, SchemeSHA256:
	default:
		return nil, fmt.Errorf("%w: unknown scheme %q", domain.ErrHashingUnavailable, scheme)
	}

	h := &PasswordHasher{
		scheme:     scheme,
		bcryptCost: bcrypt.DefaultCost,
		argon:      defaultArgon2Params,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Scheme returns the scheme used for new digests.
func (h *PasswordHasher) Scheme() string {
	return h.scheme
}

// Hash returns the digest of plaintext under the configured scheme.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	switch h.scheme {
	case SchemeSHA256:
		return sha256Digest(plaintext), nil
	case SchemeArgon2id:
		return h.argon2idDigest(plaintext)
	default:
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return "", fmt.Errorf("%w: password too long", domain.ErrInvalidInput)
			}
			return "", fmt.Errorf("%w: %v", domain.ErrHashingUnavailable, err)
		}
		return string(digest), nil
	}
}

// Verify reports whether plaintext matches digest. Comparison is constant time.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	switch {
	case digest == "":
		return false
	case isBcryptDigest(digest):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	case strings.HasPrefix(digest, argon2idPrefix):
		return verifyArgon2id(plaintext, digest)
	default:
		return subtle.ConstantTimeCompare([]byte(sha256Digest(plaintext)), []byte(digest)) == 1
	}
}

func isBcryptDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func sha256Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// argon2idDigest encodes as $argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<key>.
func (h *PasswordHasher) argon2idDigest(plaintext string) (string, error) {
	salt := make([]byte, h.argon.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: read salt: %v", domain.ErrHashingUnavailable, err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.argon.time, h.argon.memory, h.argon.threads, h.argon.keyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.argon.memory, h.argon.time, h.argon.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(plaintext, digest string) bool {
	parts := strings.Split(digest, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var p argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, p.time, p.memory, p.threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
