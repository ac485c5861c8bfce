// Command kerasktgt requests a ticket-granting ticket from a KDC via the
// AS exchange, optionally pre-authenticating with a password or an NTLM
// hash, and can stash the resulting credential as a KRB-CRED file for
// kerasktgs/kerticket to pick up later.
//
// Usage:
//
//	kerasktgt -dc 10.0.0.10 -domain CONTOSO.COM -username alice -password s3cr3t -outfile alice.tgt
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/smnsjas/go-kerlab/internal/cliutil"
	"github.com/smnsjas/go-kerlab/krb5"
	"github.com/smnsjas/go-kerlab/transport"
)

func main() {
	dc := flag.String("dc", "", "host IP of the Domain Controller")
	port := flag.Int("port", 88, "Domain Controller Kerberos port")
	domain := flag.String("domain", "", "Windows Domain")
	username := flag.String("username", "", "Username to request a TGT for")
	password := flag.String("password", "", "Account password to pre-authenticate with (with neither -password nor -ntlm, no pre-authentication is sent)")
	ntlmHash := flag.String("ntlm", "", "NTLM hash (hex) to pre-authenticate with instead of a password")
	outfile := flag.String("outfile", "", "Path to write the resulting KRB-CRED credential")
	forwardable := flag.Bool("forwardable", false, "Ask for a forwardable ticket")
	renewable := flag.Bool("renewable", false, "Ask for a renewable ticket")
	udp := flag.Bool("udp", false, "Use UDP instead of TCP")
	timeout := flag.Duration("timeout", 10*time.Second, "Exchange timeout")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty means warn)")
	logFile := flag.String("logfile", "", "Rotating log file path (default: stderr)")
	flag.Parse()

	if err := cliutil.SetupLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if *dc == "" || *domain == "" || *username == "" {
		fmt.Fprintln(os.Stderr, "usage: kerasktgt -dc <ip> -domain <domain> -username <user> [-password <pw> | -ntlm <hash>]")
		os.Exit(1)
	}

	var options []krb5.KDCOption
	if *renewable {
		options = append(options, krb5.OptRenewable, krb5.OptRenewableOk)
	}
	if *forwardable {
		options = append(options, krb5.OptForwardable)
	}

	req, err := krb5.NewASReq(*domain, *username, options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build AS-REQ: %v\n", err)
		os.Exit(1)
	}

	var key *krb5.EncryptionKey
	switch {
	case *ntlmHash != "":
		hash, err := hex.DecodeString(*ntlmHash)
		if err != nil {
			fmt.Fprintf(os.Stderr, "decode ntlm hash: %v\n", err)
			os.Exit(1)
		}
		k := krb5.NewEncryptionKeyRC4HMACFromHash(hash)
		key = &k
	case *password != "":
		k := krb5.NewEncryptionKeyRC4HMAC(*password)
		key = &k
	}

	if key != nil {
		req, err = req.WithPreauth(*key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "add preauth: %v\n", err)
			os.Exit(1)
		}
	}

	addr := net.JoinHostPort(*dc, strconv.Itoa(*port))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("AS-REQ -> %s: %s\\%s\n", addr, *domain, *username)

	var asRep krb5.AsRep
	exchange := transport.Exchange
	if *udp {
		exchange = transport.ExchangeUDP
	}
	krbErr, err := exchange(ctx, addr, req.Marshal(), &asRep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AS exchange failed: %v\n", err)
		os.Exit(1)
	}
	if krbErr != nil {
		fmt.Fprintf(os.Stderr, "KDC rejected the request: %s\n", krbErr)
		os.Exit(1)
	}

	fmt.Printf("AS-REP: ticket for %s issued by %s\n", asRep.Inner.Ticket, asRep.Inner.CRealm)

	if key == nil {
		return
	}

	encPart, err := asRep.DecryptWithKey(*key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decrypt AS-REP.enc-part: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("session key recovered, ticket valid until %s\n", time.Unix(encPart.Inner.EndTime, 0).UTC())

	if *outfile == "" {
		return
	}
	cred, err := krb5.NewKrbCred(asRep.Inner.CName, asRep.Inner.Ticket, encPart.Inner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build KRB-CRED: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outfile, cred.Marshal(), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *outfile, err)
		os.Exit(1)
	}
	fmt.Printf("saved KRB-CRED to %s\n", *outfile)
}
