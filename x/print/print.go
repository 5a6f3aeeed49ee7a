// Package print renders decoded certificates, requests and keys
package print

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/effective-security/pkicodec/certinfo"
	"github.com/effective-security/pkicodec/certutil"
	"github.com/effective-security/pkicodec/oid"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// JSON prints value to out
func JSON(w io.Writer, value any) {
	b, err := json.MarshalIndent(value, "", "\t")
	if err != nil {
		fmt.Fprintf(w, "ERROR: %s\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(b))
}

// Certificates prints list of certificates
func Certificates(w io.Writer, list []*certinfo.Certificate) {
	for i, c := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Certificate(w, c)
	}
}

// CertificatesTable prints list of certificates as markdown table
func CertificatesTable(w io.Writer, list []*certinfo.Certificate) {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Subject", "Issuer", "Expires", "Key", "SHA256"})

	var rows [][]string
	for i, c := range list {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.SubjectName(),
			c.IssuerName(),
			c.Validity.NotAfter.Format("2006-01-02"),
			fmt.Sprintf("%s %d", oid.Name(c.PublicKey.Algorithm), c.PublicKey.BitLength),
			c.SHA256,
		})
	}

	if err := table.Bulk(rows); err != nil {
		fmt.Fprintf(w, "ERROR: %s\n", err.Error())
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(w, "ERROR: %s\n", err.Error())
	}
}

// Certificate prints certificate
func Certificate(w io.Writer, c *certinfo.Certificate) {
	fmt.Fprintf(w, "Version: %d\n", c.Version)
	fmt.Fprintf(w, "Serial: %s\n", c.SerialNumber.String())
	fmt.Fprintf(w, "Signature: %s\n", oid.Name(c.SignatureAlgorithm))
	fmt.Fprintf(w, "Subject: %s\n", c.SubjectName())
	fmt.Fprintf(w, "Issuer: %s\n", c.IssuerName())
	fmt.Fprintf(w, "Issued: %s\n", c.Validity.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(w, "Expires: %s\n", c.Validity.NotAfter.Format(time.RFC3339))
	fmt.Fprintf(w, "Public Key: %s %d\n", oid.Name(c.PublicKey.Algorithm), c.PublicKey.BitLength)
	fmt.Fprintf(w, "  SHA1: %s\n", c.PublicKey.SHA1)
	fmt.Fprintf(w, "  SHA256: %s\n", c.PublicKey.SHA256)
	if len(c.SubjectAltNames) > 0 {
		fmt.Fprintf(w, "SAN: %s\n", strings.Join(c.SubjectAltNames, ", "))
	}
	if len(c.Extensions) > 0 {
		fmt.Fprintln(w, "Extensions:")
		for _, e := range c.Extensions {
			crit := ""
			if e.Critical {
				crit = " (critical)"
			}
			fmt.Fprintf(w, "  %s%s\n", oid.Name(e.ID), crit)
		}
	}
	fmt.Fprintf(w, "MD5: %s\n", c.MD5)
	fmt.Fprintf(w, "SHA1: %s\n", c.SHA1)
	fmt.Fprintf(w, "SHA256: %s\n", c.SHA256)
}

// CertificateRequest prints CSR
func CertificateRequest(w io.Writer, r *x509.CertificateRequest) {
	fmt.Fprintf(w, "Subject: %s\n", r.Subject.String())
	if ki, err := certutil.NewKeyInfo(r.PublicKey); err == nil {
		fmt.Fprintf(w, "Public Key: %s %d\n", ki.Type, ki.KeySize)
	} else {
		fmt.Fprintf(w, "ERROR: %s\n", err.Error())
	}
	fmt.Fprintf(w, "Signature: %s\n", r.SignatureAlgorithm.String())
	fmt.Fprintf(w, "Public Key SHA256: %s\n", certutil.SHA256(r.RawSubjectPublicKeyInfo))

	if len(r.DNSNames) > 0 {
		fmt.Fprintf(w, "DNS Names: %s\n", strings.Join(r.DNSNames, ", "))
	}
	if len(r.IPAddresses) > 0 {
		ips := make([]string, len(r.IPAddresses))
		for i, ip := range r.IPAddresses {
			ips[i] = ip.String()
		}
		fmt.Fprintf(w, "IP Addresses: %s\n", strings.Join(ips, ", "))
	}
	if len(r.EmailAddresses) > 0 {
		fmt.Fprintf(w, "Emails: %s\n", strings.Join(r.EmailAddresses, ", "))
	}
	if len(r.URIs) > 0 {
		uris := make([]string, len(r.URIs))
		for i, u := range r.URIs {
			uris[i] = u.String()
		}
		fmt.Fprintf(w, "URIs: %s\n", strings.Join(uris, ", "))
	}
}

// KeyInfo prints key information
func KeyInfo(w io.Writer, ki *certutil.KeyInfo) {
	fmt.Fprintf(w, "Type: %s\n", ki.Type)
	fmt.Fprintf(w, "Size: %d\n", ki.KeySize)
	if ki.Curve != "" {
		fmt.Fprintf(w, "Curve: %s\n", ki.Curve)
	}
	fmt.Fprintf(w, "Private: %t\n", ki.IsPrivate)
	fmt.Fprintf(w, "Hash: %s\n", ki.Hash.String())
}
