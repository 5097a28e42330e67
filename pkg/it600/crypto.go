package it600

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"errors"
	"strings"
	"unicode/utf8"
)

const keyLength = 32

// DeriveKey returns the 32 byte gateway key: md5("Salus-" + lower(euid))
// zero extended. Only the first aes.BlockSize bytes are used by the cipher.
func DeriveKey(euid string) []byte {
	sum := md5.Sum([]byte("Salus-" + strings.ToLower(euid)))
	key := make([]byte, keyLength)
	copy(key, sum[:])
	return key
}

// Cipher frames request and response bodies with AES-128-CBC under the protocol IV.
type Cipher struct {
	block cipher.Block
}

func NewCipher(euid string) (*Cipher, error) {
	block, err := aes.NewCipher(DeriveKey(euid)[:aes.BlockSize])
	if err != nil {
		return nil, err
	}
	return &Cipher{block: block}, nil
}

func (c *Cipher) Encrypt(plain []byte) []byte {
	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, encryptionIV).CryptBlocks(out, padded)
	return out
}

func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a multiple of the block size")
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, encryptionIV).CryptBlocks(out, ciphertext)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(plain) {
		return nil, errors.New("decrypted payload is not valid UTF-8")
	}
	return plain, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty payload")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
