// Command kerasktgs exchanges a TGT recorded by kerasktgt for a service
// ticket via the TGS exchange, optionally using the MS-SFU PA-FOR-USER
// extension (S4U2Self) to request the ticket on behalf of another user.
//
// Usage:
//
//	kerasktgs -dc 10.0.0.10 -ticket alice.tgt -service cifs/dc01.contoso.com -outfile alice.st
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/internal/cliutil"
	"github.com/smnsjas/go-kerlab/krb5"
	"github.com/smnsjas/go-kerlab/transport"
)

func main() {
	dc := flag.String("dc", "", "host IP of the Domain Controller")
	port := flag.Int("port", 88, "Domain Controller Kerberos port")
	ticketPath := flag.String("ticket", "", "TGT recorded using kerasktgt")
	service := flag.String("service", "", "Service principal, slash-separated (e.g. cifs/dc01.contoso.com)")
	outfile := flag.String("outfile", "", "Path to write the resulting KRB-CRED credential")
	forwardable := flag.Bool("forwardable", false, "Ask for a forwardable ticket")
	forwarded := flag.Bool("forwarded", false, "Ask for a forwarded ticket")
	renewable := flag.Bool("renewable", false, "Ask for a renewable ticket")
	s4u := flag.String("s4u", "", "Request a ticket to this service in place of this user (S4U2Self)")
	udp := flag.Bool("udp", false, "Use UDP instead of TCP")
	timeout := flag.Duration("timeout", 10*time.Second, "Exchange timeout")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty means warn)")
	logFile := flag.String("logfile", "", "Rotating log file path (default: stderr)")
	flag.Parse()

	if err := cliutil.SetupLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if *dc == "" || *ticketPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kerasktgs -dc <ip> -ticket <tgt-file> [-service <spn> | -s4u <user>]")
		os.Exit(1)
	}

	contents, err := os.ReadFile(*ticketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *ticketPath, err)
		os.Exit(1)
	}

	var tgt krb5.KrbCred
	if err := tgt.Unmarshal(contents); err != nil {
		fmt.Fprintf(os.Stderr, "parse KRB-CRED: %v\n", err)
		os.Exit(1)
	}

	noKey := krb5.NewEncryptionKeyNoEncryption()
	plaintext, err := noKey.Decrypt(crypto.KeyUsageASRepEncPart, tgt.Inner.EncPart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open KRB-CRED.enc-part: %v\n", err)
		os.Exit(1)
	}
	var credPart krb5.EncKrbCredPart
	if err := credPart.Unmarshal(plaintext); err != nil {
		fmt.Fprintf(os.Stderr, "parse EncKrbCredPart: %v\n", err)
		os.Exit(1)
	}
	if len(credPart.Inner.TicketInfo) == 0 || len(tgt.Inner.Tickets) == 0 {
		fmt.Fprintln(os.Stderr, "recorded credential carries no ticket info")
		os.Exit(1)
	}
	ticketInfo := credPart.Inner.TicketInfo[len(credPart.Inner.TicketInfo)-1]
	ticket := tgt.Inner.Tickets[len(tgt.Inner.Tickets)-1]
	if ticketInfo.PRealm == nil || ticketInfo.PName == nil {
		fmt.Fprintln(os.Stderr, "recorded credential is missing realm or principal name")
		os.Exit(1)
	}
	domain := *ticketInfo.PRealm
	principal := *ticketInfo.PName

	authenticator := krb5.NewAuthenticator(domain, principal)
	apReq, err := krb5.NewAPReq(ticket, ticketInfo.Key, authenticator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build AP-REQ: %v\n", err)
		os.Exit(1)
	}

	var sname krb5.PrincipalName
	if *s4u != "" {
		// S4U2Self: the service requests a ticket to itself, impersonating
		// the user named by -s4u via PA-FOR-USER.
		sname = principal
	} else {
		if *service == "" {
			fmt.Fprintln(os.Stderr, "-service is required unless -s4u is set")
			os.Exit(1)
		}
		sname = krb5.NewPrincipalName(krb5.NameTypeSrvInst, strings.Split(*service, "/")...)
	}

	var options []krb5.KDCOption
	if *renewable {
		options = append(options, krb5.OptRenewable, krb5.OptRenewableOk)
	}
	if *forwardable {
		options = append(options, krb5.OptForwardable)
	}
	if *forwarded {
		options = append(options, krb5.OptForwarded)
	}

	if len(principal.Labels) == 0 {
		fmt.Fprintln(os.Stderr, "recorded principal name has no labels")
		os.Exit(1)
	}
	tgsReq, err := krb5.NewTGSReq(domain, principal.Labels[0], sname, apReq, options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build TGS-REQ: %v\n", err)
		os.Exit(1)
	}
	if *s4u != "" {
		tgsReq, err = tgsReq.ForUser(krb5.NewPrincipalName(krb5.NameTypePrincipal, *s4u), domain, ticketInfo.Key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "add PA-FOR-USER: %v\n", err)
			os.Exit(1)
		}
	}

	addr := net.JoinHostPort(*dc, strconv.Itoa(*port))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("TGS-REQ -> %s: %s for %s\n", addr, principal, sname)

	var tgsRep krb5.TgsRep
	exchange := transport.Exchange
	if *udp {
		exchange = transport.ExchangeUDP
	}
	krbErr, err := exchange(ctx, addr, tgsReq.Marshal(), &tgsRep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "TGS exchange failed: %v\n", err)
		os.Exit(1)
	}
	if krbErr != nil {
		fmt.Fprintf(os.Stderr, "KDC rejected the request: %s\n", krbErr)
		os.Exit(1)
	}

	fmt.Printf("TGS-REP: ticket for %s issued\n", tgsRep.Inner.Ticket)

	encPart, err := tgsRep.Decrypt(ticketInfo.Key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decrypt TGS-REP.enc-part: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("service ticket valid until %s\n", time.Unix(encPart.Inner.EndTime, 0).UTC())

	if *outfile == "" {
		return
	}
	cred, err := krb5.NewKrbCred(tgsRep.Inner.CName, tgsRep.Inner.Ticket, encPart.Inner)
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
