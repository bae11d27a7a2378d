package inventory

// Zone is one zone description as served by the inventory API. TTL is the
// zone-level default; per-record TTLs override it when positive.
type Zone struct {
	Name         string        `json:"name"`
	TTL          int           `json:"ttl"`
	OriginV4     *OriginV4     `json:"originv4"`
	OriginV6     string        `json:"originv6"`
	ARecords     []ARecord     `json:"a_records"`
	AAAARecords  []AAAARecord  `json:"aaaa_records"`
	CNAMERecords []CNAMERecord `json:"cname_records"`
}

type OriginV4 struct {
	IPv4 string `json:"ipv4"`
}

type ARecord struct {
	Hostname string `json:"hostname"`
	IPv4     string `json:"ipv4"`
	TTL      int    `json:"ttl"`
}

type AAAARecord struct {
	Hostname string `json:"hostname"`
	IPv6     []IPv6 `json:"ipv6"`
	TTL      int    `json:"ttl"`
}

type IPv6 struct {
	Addr string `json:"ipv6"`
}

type CNAMERecord struct {
	Hostname string `json:"hostname"`
	Alias    string `json:"alias"`
	TTL      int    `json:"ttl"`
}
