package hostsearch

import "github.com/isolationbox11-cyber/isolationbox-sub001/internal/entity"

// mockDataset is the deterministic substitute returned when no Shodan
// credential is configured or the provider is down. Addresses are from
// documentation ranges so nothing here points at a real host.
var mockDataset = []entity.SearchResultItem{
	{
		IP:           "198.51.100.23",
		Port:         554,
		Organization: "Example Broadband",
		OS:           "Linux 3.x",
		Country:      "United States",
		City:         "Portland",
		Timestamp:    "2024-01-15T08:12:00Z",
		Preview:      "RTSP/1.0 200 OK\nServer: Hipcam RealServer/V1.0 - unauthenticated network camera stream",
	},
	{
		IP:           "203.0.113.87",
		Port:         3389,
		Organization: "ColoCenter BV",
		OS:           "Windows Server 2019",
		Country:      "Netherlands",
		City:         "Amsterdam",
		Timestamp:    "2024-01-14T22:40:00Z",
		Preview:      "Remote Desktop Protocol\nNLA: disabled - exposed RDP login screen",
	},
	{
		IP:           "192.0.2.14",
		Port:         23,
		Organization: "Unknown",
		OS:           "Unknown",
		Country:      "Brazil",
		City:         "Sao Paulo",
		Timestamp:    "2024-01-14T19:05:00Z",
		Preview:      "BusyBox v1.19.4 built-in shell (ash) - telnet service with default credentials, typical mirai botnet target",
	},
	{
		IP:           "198.51.100.112",
		Port:         9200,
		Organization: "CloudHost Ltd",
		OS:           "Linux 5.x",
		Country:      "Germany",
		City:         "Frankfurt",
		Timestamp:    "2024-01-13T11:30:00Z",
		Preview:      `{"name":"es-node-1","cluster_name":"logging","tagline":"You Know, for Search"} - open Elasticsearch API`,
	},
	{
		IP:           "203.0.113.201",
		Port:         1883,
		Organization: "SmartFactory GmbH",
		OS:           "Unknown",
		Country:      "Germany",
		City:         "Munich",
		Timestamp:    "2024-01-12T16:48:00Z",
		Preview:      "MQTT Connection Code: 0 - broker accepts anonymous publish, industrial sensor topics visible",
	},
	{
		IP:           "192.0.2.250",
		Port:         445,
		Organization: "Example Hosting",
		OS:           "Windows 7",
		Country:      "India",
		City:         "Mumbai",
		Timestamp:    "2024-01-11T07:22:00Z",
		Preview:      "SMB Version: 1\nAuthentication: disabled - legacy smb share, proxy for lateral movement",
	},
}

// mockHosts filters the mock dataset by the caller's query and caps the
// result. Same query, same output.
func mockHosts(query string, limit int) []entity.SearchResultItem {
	results := make([]entity.SearchResultItem, 0, limit)
	for _, item := range mockDataset {
		if len(results) >= limit {
			break
		}
		if matchesQuery(item, query) {
			results = append(results, item)
		}
	}
	return results
}
