// Package config loads retained.json or retained.yaml.
//
// # File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "allowedOrigins": ["http://localhost:4000"],
//	    "readTimeout": "60s"
//	  },
//	  "render": {
//	    "asyncPropUpdates": false,
//	    "debounce": "microtask"
//	  },
//	  "metrics": {"enabled": true, "namespace": "retained", "path": "/metrics"},
//	  "tracing": {"tracerName": "retained/live"},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// The YAML form uses the same keys.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Listening on", cfg.Addr())
package config
