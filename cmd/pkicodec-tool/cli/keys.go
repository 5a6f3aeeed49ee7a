package cli

import (
	"crypto"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
	"github.com/effective-security/pkicodec/certutil"
	"github.com/effective-security/pkicodec/cryptoprov"
	"github.com/effective-security/pkicodec/csr"
	"github.com/effective-security/pkicodec/keys"
	"github.com/effective-security/pkicodec/x/print"
)

// KeyCmd provides key commands
type KeyCmd struct {
	Gen  KeyGenCmd  `cmd:"" help:"generate key pair"`
	Info KeyInfoCmd `cmd:"" help:"print key info"`
}

// KeyGenCmd specifies flags for Gen command
type KeyGenCmd struct {
	Type string `help:"key type: rsa|ec" default:"ec" enum:"rsa,ec"`
	Size int    `help:"key size: 1024|2048|4096 for RSA, 256|384|521 for EC" default:"256"`
	Out  string `help:"the optional prefix for output files; if not set, the output will be printed to STDOUT only"`
	Jwk  bool   `help:"print public key as JWK"`
}

// Run the command
func (a *KeyGenCmd) Run(ctx *Cli) error {
	kr := &csr.KeyRequest{Algo: a.Type, Size: a.Size}
	priv, err := generateKey(kr)
	if err != nil {
		return err
	}

	privPEM, err := keys.EncodePrivateKeyPEM(priv)
	if err != nil {
		return err
	}
	pubPEM, err := keys.EncodePublicKeyPEM(priv.Public())
	if err != nil {
		return err
	}

	if a.Out == "" {
		fmt.Fprintln(ctx.Writer(), privPEM)
		fmt.Fprintln(ctx.Writer(), pubPEM)
	} else {
		if err = saveFile(a.Out+".key", privPEM, true); err != nil {
			return err
		}
		if err = saveFile(a.Out+".pub", pubPEM, false); err != nil {
			return err
		}
	}

	if a.Jwk {
		jwk, err := certutil.NewJWK(priv)
		if err != nil {
			return err
		}
		ctx.WriteJSON(jwk)
	}
	return nil
}

// generateKey returns a new key for the request,
// EC keys use the curve of the requested size
func generateKey(kr *csr.KeyRequest) (crypto.Signer, error) {
	if err := kr.Validate(); err != nil {
		return nil, err
	}

	if kr.Algorithm() == csr.AlgoRSA {
		k, err := cryptoprov.Default.GenerateRSAKey(kr.Size)
		if err != nil {
			return nil, err
		}
		return k, nil
	}

	curve, err := keys.CurveBySize(kr.Size)
	if err != nil {
		return nil, err
	}
	k, err := cryptoprov.New(cryptoprov.WithCurve(curve)).GenerateECDSAKey()
	if err != nil {
		return nil, err
	}
	return k, nil
}

// KeyInfoCmd specifies flags for Info command
type KeyInfoCmd struct {
	In  string `kong:"arg" required:"" help:"key file name, or - for STDIN"`
	Jwk bool   `help:"print public key as JWK"`
}

// Run the command
func (a *KeyInfoCmd) Run(ctx *Cli) error {
	b, err := ctx.ReadFile(a.In)
	if err != nil {
		return errors.WithMessage(err, "unable to load key file")
	}

	text := strings.TrimSpace(string(b))
	var key any
	switch armor.BlockType(text) {
	case armor.TypePublicKey, armor.TypeECPublicKey:
		key, err = keys.ParsePublicKeyPEM(text)
	default:
		key, err = keys.ParsePrivateKeyPEM(text)
	}
	if err != nil {
		return errors.WithMessage(err, "unable to parse key")
	}

	ki, err := certutil.NewKeyInfo(key)
	if err != nil {
		return err
	}
	print.KeyInfo(ctx.Writer(), ki)

	if a.Jwk {
		jwk, err := certutil.NewJWK(key)
		if err != nil {
			return err
		}
		ctx.WriteJSON(jwk)
	}
	return nil
}
