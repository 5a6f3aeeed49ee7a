package certutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/effective-security/pkicodec/certutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	block1 = "-----BEGIN CERTIFICATE-----\nAQID\n-----END CERTIFICATE-----"
	block2 = "-----BEGIN PUBLIC KEY-----\nBAUG\nBwgJ\n-----END PUBLIC KEY-----"
)

func TestJoinPEM(t *testing.T) {
	assert.Equal(t, []byte(block1), certutil.JoinPEM(nil, []byte(block1+"\n")))
	assert.Equal(t, []byte(block1), certutil.JoinPEM([]byte(" "+block1), nil))
	assert.Equal(t, block1+"\n"+block2, string(certutil.JoinPEM([]byte(block1+"\n\n"), []byte("\n"+block2))))
}

func TestLoadPEMFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "1.pem")
	f2 := filepath.Join(dir, "2.pem")
	require.NoError(t, os.WriteFile(f1, []byte(block1+"\n"), 0600))
	require.NoError(t, os.WriteFile(f2, []byte("\r\n"+block2+"\r\n"), 0600))

	pem, err := certutil.LoadPEMFiles(f1, "", f2)
	require.NoError(t, err)
	assert.Equal(t, block1+"\n"+block2, string(pem))

	_, err = certutil.LoadPEMFiles(filepath.Join(dir, "missing.pem"))
	assert.Error(t, err)
}

func TestSplitPEM(t *testing.T) {
	text := "# comment\n" + block1 + "\r\n\r\nsubject: test\n" + block2 + "\n"
	list := certutil.SplitPEM(text)
	require.Len(t, list, 2)
	assert.Equal(t, block1, list[0])
	assert.Equal(t, block2, list[1])

	assert.Empty(t, certutil.SplitPEM(""))
	// unterminated block
	assert.Empty(t, certutil.SplitPEM("-----BEGIN CERTIFICATE-----\nAQID\n"))
}
