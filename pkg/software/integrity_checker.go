// SPDX-License-Identifier: Apache-2.0

package software

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

const (
	AlgorithmMD5    = "md5"
	AlgorithmSHA256 = "sha256"
	AlgorithmSHA512 = "sha512"
)

func newHash(algorithm string) (hash.Hash, bool) {
	switch algorithm {
	case AlgorithmMD5:
		return md5.New(), true
	case AlgorithmSHA256:
		return sha256.New(), true
	case AlgorithmSHA512:
		return sha512.New(), true
	default:
		return nil, false
	}
}

// Checksum computes the lowercase hex digest of a file
func Checksum(filePath string, algorithm string) (string, error) {
	h, ok := newHash(algorithm)
	if !ok {
		return "", NewChecksumError(filePath, algorithm, "", "")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", NewFileNotFoundError(filePath)
	}
	defer file.Close()

	if _, err := io.Copy(h, file); err != nil {
		return "", NewChecksumError(filePath, algorithm, "", "").WithUnderlyingErrors(err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// VerifyChecksum compares the digest of a file against the expected hex value.
// The comparison ignores letter case, so upper-case published digests are accepted.
func VerifyChecksum(filePath string, expectedValue string, algorithm string) error {
	actual, err := Checksum(filePath, algorithm)
	if err != nil {
		return err
	}

	expected := strings.ToLower(strings.TrimSpace(expectedValue))
	if actual != expected {
		return NewChecksumError(filePath, algorithm, expectedValue, actual)
	}

	return nil
}
