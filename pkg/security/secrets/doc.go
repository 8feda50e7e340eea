/*
Package secrets resolves ${secret:name} references in credential settings.

Connection strings, passwords and S3 keys in the configuration file may be
written as references instead of literal values:

	source:
	  mongo:
	    uri: mongodb://export:${secret:mongo-password}@db:27017
	output:
	  s3:
	    access_key_id: ${secret:s3-access-key}
	    secret_access_key: ${secret:s3-secret-key}

A Manager resolves each reference by asking its providers in order:

  - FileProvider reads one file per secret from a directory, the layout of
    Docker and Kubernetes secret mounts. Group or world writable files are
    rejected.
  - EnvProvider reads PMEXPORT_SECRET_<NAME>, where NAME is the secret name
    upper-cased with hyphens replaced by underscores.

References are resolved on a copy of the configuration before every export,
so the configuration held in memory (and printed by "validate --print")
never contains secret values, and rotated secrets are picked up by the
next scheduled run:

	mgr, err := secrets.FromConfig(&cfg.Secrets)
	if err != nil {
		return err
	}
	resolved, err := mgr.ResolveConfig(ctx, cfg)
*/
package secrets
