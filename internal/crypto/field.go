package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const fieldIVSize = aes.BlockSize // 16 bytes

var (
	ErrInvalidKey     = errors.New("crypto: key must be 32 bytes of hex")
	ErrMalformedField = errors.New("crypto: malformed encrypted field")
	ErrInvalidPadding = errors.New("crypto: invalid padding")
)

// EncryptField encrypts plaintext with AES-256-CBC under the given
// 64-hex-character key and encodes the result as "<ivHex>:<cipherHex>".
// A fresh random IV is drawn for every call. The encoding carries no
// authentication tag, so tampering is not detected; it surfaces as garbage
// or as a failed (passed-through) decrypt. The format is fixed by the data
// already on disk.
func EncryptField(plaintext, hexKey string) (string, error) {
	key, err := decodeKey(hexKey)
	if err != nil {
		return "", err
	}
	defer Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, fieldIVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// DecryptField reverses EncryptField. It fails open: any error at all
// (malformed encoding, non-hex input, wrong key, bad padding) returns the
// input string untouched, so legacy fields stored before encryption existed
// stay readable as their literal text. Callers cannot distinguish a
// recovered plaintext from a passthrough.
func DecryptField(field, hexKey string) string {
	plain, err := decryptField(field, hexKey)
	if err != nil {
		return field
	}
	return plain
}

func decryptField(field, hexKey string) (string, error) {
	key, err := decodeKey(hexKey)
	if err != nil {
		return "", err
	}
	defer Zero(key)

	ivHex, ctHex, found := strings.Cut(field, ":")
	if !found {
		return "", ErrMalformedField
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != fieldIVSize {
		return "", ErrMalformedField
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrMalformedField
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)

	unpadded, err := pkcs7Unpad(pt, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func decodeKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return key, nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
