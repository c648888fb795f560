// Package config provides configuration management for the sentiment gateway.
//
// Configuration is loaded from environment variables using the env package.
// Every value has a default except HF_TOKEN, whose absence is reported at
// startup and makes classification requests fail fast.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
