// Package config provides configuration parsing and management for the ember tools.
//
// # Loading Configuration
//
//	cfg, err := config.LoadConfig("/etc/ember/tap.yaml")
//	if err != nil {
//	    return err
//	}
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    return errs[0]
//	}
//
// Missing keys keep the values of DefaultConfig. Unknown keys are an error.
//
// # Environment Variables
//
// ${VAR} and ${VAR:-default} are substituted before parsing:
//
//	tap:
//	  url: "${EMBER_PROVIDER:-ws://localhost:9000/ember}"
//
// # Example Configuration
//
//	decoder:
//	  maxDepth: 64
//	  maxValueLength: 16777216
//	  chunkSize: 4096
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/ember/tap.log"
//
//	tap:
//	  url: "tcp://10.0.0.5:9000"
//	  readTimeout: 30s
//	  handshakeTimeout: 10s
//	  readBufferSize: 4096
//	  reconnectDelay: 2s
//	  tls:
//	    caFile: "/etc/ember/ca.pem"
//
//	render:
//	  color: true
//	  maxValueWidth: 64
//	  showTags: false
//
// # Hot Reload
//
// A Watcher reloads the file when it changes and hands the validated
// result to OnChange. The tap command applies render settings to the next
// tree it prints and the reconnect delay to the next retry; other sections
// are read once at startup.
package config
