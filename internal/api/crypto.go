package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"sync"
)

// loginPublicKeyPEM is the RSA public key the platform's login form uses to
// encrypt passwords before they leave the browser.
const loginPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCBiQKBgQCq92ZXf9ghEh/khOSrYApTMf+M
h/Zz6IeFCivylVj5ABgQF3TiOzcITDRDKj8YtNKBWPYyTaa6wO+k+3GoFU1VMOT6
XS8rLAX3XaUSdxHPe7gGIV1Pxf+vq1BDsNNLn+O+Gf7Y5M0cxVfZmGUflwsvIsNx
+Bv1iN4iOJomc449tQIDAQAB
-----END PUBLIC KEY-----`

var (
	loginKeyOnce sync.Once
	loginKey     *rsa.PublicKey
	loginKeyErr  error
)

func loginPublicKey() (*rsa.PublicKey, error) {
	loginKeyOnce.Do(func() {
		block, _ := pem.Decode([]byte(loginPublicKeyPEM))
		if block == nil {
			loginKeyErr = fmt.Errorf("no PEM block in login public key")
			return
		}

		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			loginKeyErr = fmt.Errorf("parse login public key: %w", err)
			return
		}

		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			loginKeyErr = fmt.Errorf("login public key is not RSA")
			return
		}
		loginKey = key
	})

	return loginKey, loginKeyErr
}

// EncryptPassword encrypts a plaintext password with the platform login key
// (RSA PKCS#1 v1.5) and returns it base64-encoded, the format the login
// endpoint expects.
func EncryptPassword(plain string) (string, error) {
	key, err := loginPublicKey()
	if err != nil {
		return "", err
	}

	cipher, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(plain))
	if err != nil {
		return "", fmt.Errorf("rsa encrypt: %w", err)
	}

	return base64.StdEncoding.EncodeToString(cipher), nil
}
