package usecase

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ゲートウェイのMPG方式：TradeInfoはAES-256-CBC+PKCS7をhexにしたもの、
// TradeShaは "HashKey=..&<TradeInfo>&HashIV=.." のSHA-256大文字hex。

func encryptTradeInfo(key []byte, iv []byte, plain string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	data := pkcs7Pad([]byte(plain), block.BlockSize())
	out := make([]byte, len(data))

	enc := cipher.NewCBCEncrypter(block, iv)
	enc.CryptBlocks(out, data)

	return hex.EncodeToString(out), nil
}

func decryptTradeInfo(key []byte, iv []byte, encrypted string) (string, error) {
	data, err := hex.DecodeString(strings.TrimSpace(encrypted))
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	if len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return "", fmt.Errorf("invalid trade info length")
	}

	out := make([]byte, len(data))
	dec := cipher.NewCBCDecrypter(block, iv)
	dec.CryptBlocks(out, data)

	out, err = pkcs7Unpad(out, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func tradeSha(key []byte, iv []byte, tradeInfo string) string {
	raw := fmt.Sprintf("HashKey=%s&%s&HashIV=%s", key, tradeInfo, iv)
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
