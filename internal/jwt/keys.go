package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// KeyPair mantiene el par de claves del emisor: la privada firma, la pública
// verifica. Se carga una vez al arranque; la verificación nunca requiere
// distribuir secretos.
type KeyPair struct {
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
}

// Generate genera un par Ed25519 en memoria (dev/testing).
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Priv: priv, Pub: pub}, nil
}

// Load lee la clave privada desde un archivo PEM (PKCS#8) y deriva la pública.
func Load(privPath string) (*KeyPair, error) {
	raw, err := os.ReadFile(privPath)
	if err != nil {
		return nil, fmt.Errorf("jwt: read private key: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("jwt: no PEM block in %s", privPath)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse private key: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwt: key in %s is not ed25519", privPath)
	}
	return &KeyPair{Priv: priv, Pub: priv.Public().(ed25519.PublicKey)}, nil
}

// Save escribe la clave privada en PEM (PKCS#8) con permisos 0600.
func (k *KeyPair) Save(privPath string) error {
	der, err := x509.MarshalPKCS8PrivateKey(k.Priv)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(privPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	out := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return os.WriteFile(privPath, out, 0o600)
}

// LoadOrGenerate carga el par desde privPath; si no existe, genera uno nuevo
// y lo persiste. Pensado para arranque en dev.
func LoadOrGenerate(privPath string) (*KeyPair, error) {
	if _, err := os.Stat(privPath); err == nil {
		return Load(privPath)
	}
	kp, err := Generate()
	if err != nil {
		return nil, err
	}
	if err := kp.Save(privPath); err != nil {
		return nil, err
	}
	return kp, nil
}
