package inventory

import (
	"github.com/adelvt/gandi-dns-sync/internal/dns"
)

// Desired builds the record list the inventory wants for a zone. Origin
// records map to "@", CNAME aliases gain a trailing dot to match the
// provider's representation.
func Desired(z Zone) []dns.Record {
	var records []dns.Record

	if z.OriginV4 != nil {
		records = append(records, dns.New("@", dns.TypeA, []string{z.OriginV4.IPv4}, z.TTL))
	}
	if z.OriginV6 != "" {
		records = append(records, dns.New("@", dns.TypeAAAA, []string{z.OriginV6}, z.TTL))
	}

	for _, a := range z.ARecords {
		records = append(records, dns.New(a.Hostname, dns.TypeA, []string{a.IPv4}, ttlOrDefault(a.TTL, z.TTL)))
	}
	for _, aaaa := range z.AAAARecords {
		values := make([]string, 0, len(aaaa.IPv6))
		for _, v := range aaaa.IPv6 {
			values = append(values, v.Addr)
		}
		records = append(records, dns.New(aaaa.Hostname, dns.TypeAAAA, values, ttlOrDefault(aaaa.TTL, z.TTL)))
	}
	for _, cname := range z.CNAMERecords {
		records = append(records, dns.New(cname.Hostname, dns.TypeCNAME, []string{cname.Alias + "."}, ttlOrDefault(cname.TTL, z.TTL)))
	}
	return records
}

func ttlOrDefault(ttl, zoneTTL int) int {
	if ttl > 0 {
		return ttl
	}
	return zoneTTL
}
