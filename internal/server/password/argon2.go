// Package password hashes and verifies user credentials with argon2id.
// Hashes are encoded as PHC strings, so a stored hash carries everything
// needed to verify it later.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Trevrosa/pcupback/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"

	// Fixed hashing parameters. Verification reads the parameters back out
	// of the stored PHC string, so these only govern newly created hashes.
	timeCost    uint32 = 1
	memoryKiB   uint32 = 64 * 1024
	parallelism uint8  = 4
	saltLength  uint32 = 16
	keyLength   uint32 = 32
)

// Argon2 is a stateless argon2id hasher.
type Argon2 struct{}

func NewArgon2() *Argon2 {
	return &Argon2{}
}

// Hash derives an argon2id digest of password with a fresh random salt and
// returns it as a PHC string ("$argon2id$v=19$m=...,t=...,p=...$salt$digest").
// Failures wrap common.ErrHashCreate.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashCreate, err)
	}

	digest := argon2.IDKey([]byte(password), salt, timeCost, memoryKiB, parallelism, keyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		memoryKiB,
		timeCost,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify recomputes the digest of password under the parameters stored in
// encodedHash and compares in constant time. A mismatch is (false, nil);
// an unparseable hash wraps common.ErrHashParse.
func (a *Argon2) Verify(encodedHash, password string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.digest)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.digest) == 1, nil
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	digest      []byte
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: not a PHC string", common.ErrHashParse)
	}

	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrHashParse, parts[1])
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, fmt.Errorf("%w: missing version", common.ErrHashParse)
	}
	v, err := strconv.Atoi(version)
	if err != nil || v != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %q", common.ErrHashParse, version)
	}

	var p parsedPHC
	if err := parseParams(parts[3], &p); err != nil {
		return nil, err
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: bad salt encoding", common.ErrHashParse)
	}
	if p.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: bad digest encoding", common.ErrHashParse)
	}
	if len(p.digest) == 0 {
		return nil, fmt.Errorf("%w: empty digest", common.ErrHashParse)
	}

	return &p, nil
}

func parseParams(part string, out *parsedPHC) error {
	seen := map[string]bool{}
	for _, pair := range strings.Split(part, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("%w: bad parameter %q", common.ErrHashParse, pair)
		}
		if seen[kv[0]] {
			return fmt.Errorf("%w: duplicate parameter %q", common.ErrHashParse, kv[0])
		}

		n, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: bad parameter %q", common.ErrHashParse, pair)
		}

		switch kv[0] {
		case "m":
			out.memory = uint32(n)
		case "t":
			out.time = uint32(n)
		case "p":
			if n > 255 {
				return fmt.Errorf("%w: parallelism out of range", common.ErrHashParse)
			}
			out.parallelism = uint8(n)
		default:
			return fmt.Errorf("%w: unknown parameter %q", common.ErrHashParse, kv[0])
		}
		seen[kv[0]] = true
	}

	if len(seen) != 3 {
		return fmt.Errorf("%w: missing parameters", common.ErrHashParse)
	}

	// argon2.IDKey panics on zero rounds or zero threads; reject them here
	// so a corrupted stored hash surfaces as a parse error.
	if out.time < 1 {
		return fmt.Errorf("%w: time cost out of range", common.ErrHashParse)
	}
	if out.parallelism < 1 {
		return fmt.Errorf("%w: parallelism out of range", common.ErrHashParse)
	}
	return nil
}
