package session

import "github.com/lineforge/lineforge/internal/coreerr"

func opName(op string) string { return "session." + op }

func notFound(op string) error { return coreerr.NotFound(opName(op), nil) }
