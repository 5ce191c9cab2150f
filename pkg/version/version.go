// Package version provides version information for the oracle aggregator.
package version

// Version is the current version of the oracle aggregator.
const Version = "1.0.0"

// AgentString returns the user agent string sent with outbound HTTP requests.
func AgentString() string {
	return "btcfi/oracle-aggregator@v" + Version
}
