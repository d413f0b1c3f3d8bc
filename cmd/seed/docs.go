package main

import "devops-assistant-be/internal/dto"

var starterDocs = []dto.AddDocumentRequest{
	{
		Title: "Debugging CrashLoopBackOff pods",
		Content: "When a pod is in CrashLoopBackOff, start with `kubectl describe pod <name>` to see the last state " +
			"and exit code. Exit code 137 means the container was OOM-killed; raise the memory limit or fix the leak. " +
			"Exit code 1 usually points at a startup failure, so check `kubectl logs <name> --previous` for the crash " +
			"output. Also verify liveness probe settings: an aggressive probe on a slow-starting service produces the " +
			"same symptom.",
	},
	{
		Title: "Rolling back a Kubernetes deployment",
		Content: "Use `kubectl rollout undo deployment/<name>` to return to the previous ReplicaSet. " +
			"`kubectl rollout history deployment/<name>` lists revisions when you need to go further back with " +
			"--to-revision. Always check `kubectl rollout status` afterwards; a rollback that cannot schedule pods " +
			"will sit in progress forever.",
	},
	{
		Title: "CI pipeline fails only on the runner",
		Content: "Builds that pass locally but fail in CI are almost always environment drift: different tool " +
			"versions, missing environment variables, or a dirty cache. Pin tool versions in the pipeline config, " +
			"print the environment at the start of the job, and clear the runner cache before re-running. For " +
			"docker-in-docker jobs, check that the runner has enough disk; `no space left on device` surfaces as " +
			"unrelated build errors.",
	},
	{
		Title: "Nginx returns 502 Bad Gateway",
		Content: "A 502 from nginx means the upstream refused or dropped the connection. Check that the upstream " +
			"service is listening on the configured port, then look at `proxy_read_timeout` for long requests. " +
			"When running behind systemd, `journalctl -u <service>` shows whether the upstream crashed. SELinux can " +
			"also block the proxy connection; look for denials in the audit log.",
	},
	{
		Title: "Terraform state lock stuck",
		Content: "If `terraform apply` reports the state is locked and no run is active, a previous process died " +
			"without releasing the lock. Confirm no CI job is mid-apply, then run `terraform force-unlock <lock-id>`. " +
			"Never edit the state file by hand; use `terraform state` subcommands for surgical changes.",
	},
	{
		Title: "Postgres connection pool exhaustion",
		Content: "Symptoms are `FATAL: sorry, too many clients already` or application timeouts under load. Compare " +
			"the sum of all application pool sizes against `max_connections`. Long-running transactions hold " +
			"connections; find them with `SELECT * FROM pg_stat_activity WHERE state <> 'idle' ORDER BY " +
			"query_start`. Prefer a single pooler (pgbouncer) over raising max_connections.",
	},
}
