// Command kerticket inspects a KRB-CRED credential file recorded by
// kerasktgt/kerasktgs: it decodes the stashed ticket info, optionally
// decrypts the ticket's enc-part with a known password or NTLM hash, and
// can emit a hashcat-compatible $krb5tgs$ line for offline cracking.
//
// Usage:
//
//	kerticket -ticket alice.st -hashcat alice.hashcat
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/smnsjas/go-kerlab/crypto"
	"github.com/smnsjas/go-kerlab/internal/cliutil"
	"github.com/smnsjas/go-kerlab/kerrors"
	"github.com/smnsjas/go-kerlab/krb5"
)

func main() {
	ticketPath := flag.String("ticket", "", "Path to the KRB-CRED credential file")
	ntlmHash := flag.String("ntlm", "", "NTLM hash (hex) to decrypt the ticket's enc-part")
	password := flag.String("password", "", "Password to decrypt the ticket's enc-part")
	hashcat := flag.String("hashcat", "", "Write a $krb5tgs$ hashcat line to this file")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty means warn)")
	logFile := flag.String("logfile", "", "Rotating log file path (default: stderr)")
	flag.Parse()

	if err := cliutil.SetupLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if *ticketPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kerticket -ticket <file> [-password <pw> | -ntlm <hash>] [-hashcat <file>]")
		os.Exit(1)
	}

	contents, err := os.ReadFile(*ticketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *ticketPath, err)
		os.Exit(1)
	}

	var cred krb5.KrbCred
	if err := cred.Unmarshal(contents); err != nil {
		fmt.Fprintf(os.Stderr, "parse KRB-CRED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("KRB-CRED:")
	for _, t := range cred.Inner.Tickets {
		fmt.Printf("  ticket: %s\n", t)
	}

	noKey := krb5.NewEncryptionKeyNoEncryption()
	plaintext, err := noKey.Decrypt(crypto.KeyUsageASRepEncPart, cred.Inner.EncPart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open EncKrbCredPart: %v\n", err)
		os.Exit(1)
	}
	var credPart krb5.EncKrbCredPart
	if err := credPart.Unmarshal(plaintext); err != nil {
		fmt.Fprintf(os.Stderr, "parse EncKrbCredPart: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("EncKrbCredPart:")
	for _, info := range credPart.Inner.TicketInfo {
		name := "?"
		if info.PName != nil {
			name = info.PName.String()
		}
		realm := ""
		if info.SRealm != nil {
			realm = *info.SRealm
		}
		fmt.Printf("  %s@%s, keytype=%d\n", name, realm, info.Key.KeyType)
	}

	if len(cred.Inner.Tickets) == 0 || len(credPart.Inner.TicketInfo) == 0 {
		return
	}
	ticket := cred.Inner.Tickets[len(cred.Inner.Tickets)-1]
	ticketInfo := credPart.Inner.TicketInfo[len(credPart.Inner.TicketInfo)-1]

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
		plaintext, err := key.Decrypt(crypto.KeyUsageASRepTicket, ticket.EncPart)
		if err != nil {
			if kerrors.IsCrypto(err) {
				fmt.Fprintf(os.Stderr, "wrong password/hash for ticket: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "decrypt ticket.enc-part: %v\n", err)
			}
		} else {
			var encTicketPart krb5.EncTicketPart
			if err := encTicketPart.Unmarshal(plaintext); err != nil {
				fmt.Fprintf(os.Stderr, "parse EncTicketPart: %v\n", err)
			} else {
				fmt.Printf("EncTicketPart: %s\n", encTicketPart)
			}
		}
	}

	if *hashcat == "" {
		return
	}
	if len(ticket.EncPart.Cipher) < 16 {
		fmt.Fprintln(os.Stderr, "ticket cipher too short to split into checksum/ciphertext")
		os.Exit(1)
	}
	pname := "?"
	if ticketInfo.PName != nil && len(ticketInfo.PName.Labels) > 0 {
		pname = ticketInfo.PName.Labels[0]
	}
	realm := ""
	if ticketInfo.SRealm != nil {
		realm = *ticketInfo.SRealm
	}
	var sname string
	if ticketInfo.SName != nil {
		sname = strings.Join(ticketInfo.SName.Labels, "/")
	}
	line := fmt.Sprintf("$krb5tgs$%d$*%s$%s$%s*$%s$%s",
		ticket.EncPart.EType,
		pname,
		realm,
		sname,
		hex.EncodeToString(ticket.EncPart.Cipher[:16]),
		hex.EncodeToString(ticket.EncPart.Cipher[16:]),
	)
	if err := os.WriteFile(*hashcat, []byte(line), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *hashcat, err)
		os.Exit(1)
	}
	fmt.Printf("wrote hashcat line to %s\n", *hashcat)
}
