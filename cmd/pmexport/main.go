// pmexport exports the household roll from the PeriMeleon document store
// into two clean JSON files, households.json and members.json, for
// consumers that should not see the store's internal representation.
//
// Usage:
//
//	# Export once with the built-in defaults (mongo at db:27017)
//	pmexport export
//
//	# Export with a configuration file, report as JSON
//	pmexport export --config /etc/pmexport.yaml --format json
//
//	# Re-export nightly, serving metrics and health probes
//	pmexport schedule --config /etc/pmexport.yaml
//
//	# Check a configuration file and the source connection
//	pmexport validate --config /etc/pmexport.yaml --ping
package main

func main() {
	Execute()
}
