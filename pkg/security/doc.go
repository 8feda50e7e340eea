/*
Package security groups the credential handling used by pmexport.

# Secret Management

Credentials in the configuration may reference secrets instead of holding
them literally. See package secrets:

	mgr, err := secrets.FromConfig(&cfg.Secrets)
	if err != nil {
		log.Fatal(err)
	}

	resolved, err := mgr.ResolveConfig(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
*/
package security
