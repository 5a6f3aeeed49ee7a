package cli

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/certinfo"
	"github.com/effective-security/pkicodec/certutil"
	"github.com/effective-security/pkicodec/x/print"
)

// CertsCmd provides certificates commands
type CertsCmd struct {
	Info CertInfoCmd `cmd:"" help:"print certificate info"`
}

// CertInfoCmd specifies flags for CertInfo action
type CertInfoCmd struct {
	In        []string `kong:"arg" required:"" help:"certificate file names, or - for STDIN"`
	JSON      bool     `name:"json" help:"print certificates as JSON"`
	Table     bool     `help:"print certificates as markdown table"`
	NotAfter  string   `help:"optional, filter certificates expiring within the duration"`
	NoExpired *bool    `help:"optional, filter non-expired certificates"`
}

// Run the command
func (a *CertInfoCmd) Run(ctx *Cli) error {
	var pem []byte
	var err error
	if len(a.In) == 1 && a.In[0] == "-" {
		pem, err = ctx.ReadFile("-")
	} else {
		pem, err = certutil.LoadPEMFiles(a.In...)
	}
	if err != nil {
		return errors.WithMessage(err, "unable to load PEM file")
	}

	blocks := certutil.SplitPEM(string(pem))
	if len(blocks) == 0 {
		return errors.New("no PEM blocks found")
	}

	list := make([]*certinfo.Certificate, 0, len(blocks))
	for i, block := range blocks {
		c, err := certinfo.Parse(block)
		if err != nil {
			return errors.WithMessagef(err, "unable to parse certificate %d", i)
		}
		list = append(list, c)
	}

	now := time.Now().UTC()
	if a.NoExpired != nil && *a.NoExpired {
		list = filterByNotAfter(list, now)
	}

	if a.NotAfter != "" {
		d, err := time.ParseDuration(a.NotAfter)
		if err != nil {
			return errors.WithMessage(err, "unable to parse --not-after")
		}
		list = filterByAfter(list, now.Add(d))
	}

	switch {
	case a.JSON:
		ctx.WriteJSON(list)
	case a.Table:
		print.CertificatesTable(ctx.Writer(), list)
	default:
		print.Certificates(ctx.Writer(), list)
	}
	return nil
}

func filterByNotAfter(list []*certinfo.Certificate, notAfter time.Time) []*certinfo.Certificate {
	filtered := make([]*certinfo.Certificate, 0, len(list))
	for _, c := range list {
		if c.Validity.NotAfter.After(notAfter) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func filterByAfter(list []*certinfo.Certificate, notAfter time.Time) []*certinfo.Certificate {
	filtered := make([]*certinfo.Certificate, 0, len(list))
	for _, c := range list {
		if !c.Validity.NotAfter.After(notAfter) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
