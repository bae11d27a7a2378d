package dns

import (
	"fmt"
	"strings"
)

// DefaultTTL is applied when a record is built without an explicit TTL.
// It matches the provider's own default for new rrsets.
const DefaultTTL = 10800

// Type is a DNS resource record type. The set is closed to the types the
// provider accepts.
type Type string

const (
	TypeA          Type = "A"
	TypeAAAA       Type = "AAAA"
	TypeALIAS      Type = "ALIAS"
	TypeCAA        Type = "CAA"
	TypeCDS        Type = "CDS"
	TypeCNAME      Type = "CNAME"
	TypeDNAME      Type = "DNAME"
	TypeDS         Type = "DS"
	TypeKEY        Type = "KEY"
	TypeLOC        Type = "LOC"
	TypeMX         Type = "MX"
	TypeNS         Type = "NS"
	TypeOPENPGPKEY Type = "OPENPGPKEY"
	TypePTR        Type = "PTR"
	TypeSPF        Type = "SPF"
	TypeSRV        Type = "SRV"
	TypeSSHFP      Type = "SSHFP"
	TypeTLSA       Type = "TLSA"
	TypeTXT        Type = "TXT"
	TypeWKS        Type = "WKS"
)

func (t Type) Valid() bool {
	switch t {
	case TypeA, TypeAAAA, TypeALIAS, TypeCAA, TypeCDS, TypeCNAME, TypeDNAME,
		TypeDS, TypeKEY, TypeLOC, TypeMX, TypeNS, TypeOPENPGPKEY, TypePTR,
		TypeSPF, TypeSRV, TypeSSHFP, TypeTLSA, TypeTXT, TypeWKS:
		return true
	}
	return false
}

// Record is an immutable-by-value DNS resource record. Identity is
// structural over all four fields; the order of Values is significant
// since it is part of the provider's representation.
type Record struct {
	Name   string
	Type   Type
	Values []string
	TTL    int
}

// New builds a record, falling back to DefaultTTL when ttl is not
// positive.
func New(name string, rtype Type, values []string, ttl int) Record {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Record{
		Name:   name,
		Type:   rtype,
		Values: values,
		TTL:    ttl,
	}
}

func (r Record) Equal(other Record) bool {
	if r.Name != other.Name || r.Type != other.Type || r.TTL != other.TTL {
		return false
	}
	if len(r.Values) != len(other.Values) {
		return false
	}
	for i := range r.Values {
		if r.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

// Key is a stable identity string covering all four fields, usable as a
// set membership key. Two records built from different sources with
// identical fields share a key.
func (r Record) Key() string {
	return fmt.Sprintf("%s\x1f%s\x1f%d\x1f%s", r.Name, r.Type, r.TTL, strings.Join(r.Values, "\x1f"))
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %v ttl=%d", r.Name, r.Type, r.Values, r.TTL)
}
