package domain

// Appliance is a network appliance (one per site) known to the orchestrator.
type Appliance struct {
	ID       string `json:"id"`
	NePk     string `json:"nePk"`
	HostName string `json:"hostName"`
	Site     string `json:"site"`
	Model    string `json:"model"`
	IP       string `json:"ip"`
}

// Lease is one DHCP client entry of an appliance's lease table, keyed
// upstream by the client IP.
type Lease struct {
	IP             string
	ClientHostname string
	MAC            string
	State          string
	NextState      string
	Starts         int64
	Ends           int64
	Cltt           int64
}
