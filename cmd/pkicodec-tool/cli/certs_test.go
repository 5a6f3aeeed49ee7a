package cli

func (s *testSuite) TestCertInfo() {
	cmd := CertInfoCmd{
		In: []string{"testdata/chain.pem", "testdata/v3.pem"},
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText(
		"Version: 1\n",
		"Subject: CN=ec.example.com, O=Test EC\n",
		"SAN: example.com, www.example.com, 192.168.1.1, ",
		"SHA256: 05F961E6D5D147F45EE5B23D187C649C104CCD402D5250417509E75A2E20454B\n",
	)

	s.Out.Reset()
	cmd.JSON = true
	err = cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText(`"version": 3`, `"sha256": "05F961E6D5D147F45EE5B23D187C649C104CCD402D5250417509E75A2E20454B"`)

	s.Out.Reset()
	cmd.JSON = false
	cmd.Table = true
	err = cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("|", "2029-01-20", "2136-04-24")
	s.HasNoText("Version: ")
}

func (s *testSuite) TestCertInfoFilter() {
	// v3.pem expires in 2029, ec.pem in 2136, v1.pem in 2036
	cmd := CertInfoCmd{
		In:       []string{"testdata/chain.pem", "testdata/v3.pem"},
		NotAfter: "43800h",
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("Expires: 2029-01-20T01:36:26Z\n")
	s.HasNoText("Expires: 2136-", "Expires: 2036-")

	s.Out.Reset()
	noExpired := true
	cmd = CertInfoCmd{
		In:        []string{"testdata/v3.pem"},
		NoExpired: &noExpired,
	}
	err = cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("Expires: 2029-01-20T01:36:26Z\n")

	cmd.NotAfter = "1d"
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to parse --not-after")
}

func (s *testSuite) TestCertInfoErrors() {
	cmd := CertInfoCmd{In: []string{"testdata/rsa_profile.yaml"}}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "no PEM blocks found")

	cmd = CertInfoCmd{In: []string{"testdata/notfound.pem"}}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to load PEM file")
}
