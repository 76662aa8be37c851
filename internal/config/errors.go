package config

import "errors"

var (
	ErrMissingRepository    = errors.New("github owner and repo are required")
	ErrMissingLintRepoURL   = errors.New("lint repo URL is required")
	ErrMissingLintClonePath = errors.New("lint clone path is required")
)
