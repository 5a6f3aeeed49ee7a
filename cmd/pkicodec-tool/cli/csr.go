package cli

import (
	"crypto"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/cryptoprov"
	"github.com/effective-security/pkicodec/csr"
	"github.com/effective-security/pkicodec/dn"
	"github.com/effective-security/pkicodec/keys"
	"github.com/effective-security/pkicodec/x/print"
)

// CsrCmd is the parent for CSR command
type CsrCmd struct {
	Create CsrCreateCmd `cmd:"" help:"create certificate request"`
	Info   CsrInfoCmd   `cmd:"" help:"print CSR info"`
}

// CsrCreateCmd specifies flags for Create command
type CsrCreateCmd struct {
	Profile string `help:"file name with CSR profile, YAML or JSON"`
	Subject string `help:"optional subject, overrides the profile names, e.g. cn=example.com,o=Org,c=US"`
	Key     string `help:"optional private key file; if not set, a new key is generated from the profile"`
	Out     string `help:"the optional prefix for output files; if not set, the output will be printed to STDOUT only"`
}

// Run the command
func (a *CsrCreateCmd) Run(ctx *Cli) error {
	req := &csr.CertificateRequest{
		KeyRequest: &csr.KeyRequest{Algo: csr.AlgoECDSA, Size: 256},
	}
	if a.Profile != "" {
		b, err := ctx.ReadFile(a.Profile)
		if err != nil {
			return errors.WithMessage(err, "read CSR profile")
		}
		req, err = csr.ParseCertificateRequest(b)
		if err != nil {
			return errors.WithMessage(err, "invalid CSR profile")
		}
	}
	if a.Subject != "" {
		names, err := dn.ParseNames(a.Subject)
		if err != nil {
			return errors.WithMessage(err, "invalid subject")
		}
		req.Names = names
	}
	if len(req.Names) == 0 {
		return errors.New("either --profile or --subject must be provided")
	}

	var priv crypto.Signer
	var err error
	if a.Key != "" {
		priv, err = cryptoprov.NewSignerFromFile(a.Key)
	} else {
		if req.KeyRequest == nil {
			return errors.New("profile must specify the key, or use --key")
		}
		priv, err = generateKey(req.KeyRequest)
	}
	if err != nil {
		return err
	}

	if err = req.Validate(); err != nil {
		return err
	}

	csrPEM, err := csr.NewProvider(cryptoprov.Default).Build(req.Names, priv)
	if err != nil {
		return errors.WithMessage(err, "process CSR")
	}

	if a.Out == "" {
		fmt.Fprintln(ctx.Writer(), csrPEM)
		if a.Key == "" {
			keyPEM, err := keys.EncodePrivateKeyPEM(priv)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.Writer(), keyPEM)
		}
		return nil
	}

	if err = saveFile(a.Out+".csr", csrPEM, false); err != nil {
		return err
	}
	if a.Key == "" {
		keyPEM, err := keys.EncodePrivateKeyPEM(priv)
		if err != nil {
			return err
		}
		if err = saveFile(a.Out+".key", keyPEM, true); err != nil {
			return err
		}
	}
	return nil
}

// CsrInfoCmd specifies flags for Info command
type CsrInfoCmd struct {
	Csr string `kong:"arg" required:"" help:"CSR file name, or - for STDIN"`
}

// Run the command
func (a *CsrInfoCmd) Run(ctx *Cli) error {
	// Load CSR
	csrb, err := ctx.ReadFile(a.Csr)
	if err != nil {
		return errors.WithMessage(err, "unable to load CSR file")
	}

	csrv, err := csr.ParsePEM(string(csrb))
	if err != nil {
		return errors.WithMessage(err, "unable to parse CSR")
	}

	print.CertificateRequest(ctx.Writer(), csrv)
	return nil
}
