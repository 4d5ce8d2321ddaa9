package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Scan a source tree for unfinished code and boundary violations"
	MsgVersionShort      = "Print version information"
	MsgVersionLong       = "Print detailed version information including commit hash and build date"
	MsgCheckShort        = "Analyze files and report violations"
	MsgWatchShort        = "Re-analyze files as they change"
	MsgRulesShort        = "Inspect the effective rule set"
	MsgRulesListShort    = "List every rule with its kind, severity and state"
	MsgRulesExplainShort = "Describe one rule"
	MsgConfigShort       = "Inspect or create configuration"
	MsgConfigShowShort   = "Print the merged configuration"
	MsgConfigInitShort   = "Write a commented .codeguard.toml to the project root"
	MsgCacheShort        = "Inspect or clear the result cache"
	MsgCacheStatsShort   = "Show the persisted cache for this project"
	MsgCacheClearShort   = "Delete the persisted cache for this project"
	MsgManShort          = "Generate the man page"
	MsgCompletionShort   = "Generate shell completion script"

	// Status messages
	MsgWatching         = "Watching %s for changes (Ctrl+C to stop)\n"
	MsgWatchRerun       = "\n%s changed: %s\n"
	MsgWatchStructural  = "tree"
	MsgConfigCreated    = "Created %s\n"
	MsgCacheCleared     = "Removed %s\n"
	MsgCacheMissing     = "No cache at %s\n"
	MsgCacheStatsFormat = "Cache:       %s\nEntries:     %d\nFingerprint: %s\n"
	MsgCacheStale       = "Rules changed since the cache was written; it will be rebuilt on the next run."
	MsgNoRules          = "No rules configured."

	// Version output
	MsgVersionFormat = "codeguard version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrPrefix     = "Error: %v"
	MsgErrUnknownArg = "unknown format %q (want %s)"
	MsgErrNoRule     = "no rule with id %q"
	MsgErrExists     = "%s already exists"
	MsgErrNoRoots    = "no readable roots to analyze"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Configuration file (default: .codeguard.toml in the project root)"
	MsgFlagRoot          = "Project root holding configuration and ignore files"
	MsgFlagFormat        = "Output format: auto, text, json, junit or github"
	MsgFlagFailFast      = "Stop at the first error-severity violation"
	MsgFlagMaxViolations = "Stop after this many violations (0 = no limit)"
	MsgFlagWorkers       = "Number of parallel workers (0 = one per CPU)"
	MsgFlagNoParallel    = "Analyze files one at a time"
	MsgFlagNoCache       = "Do not read or write the result cache"
	MsgFlagMinSeverity   = "Hide violations below this severity: info, warning or error"
	MsgFlagDebounce      = "Quiet period before re-analysis"
	MsgFlagListFormat    = "Output format: text, json or yaml"
	MsgFlagConfigFormat  = "Output format: toml or yaml"
	MsgFlagForce         = "Overwrite an existing file"
	MsgFlagManDir        = "Write one page per command into this directory"
)
