// Package state provides the conversational FSM for multi-turn Telegram
// flows: a persisted per-user session (current step plus an optional pending
// folder reference) and a step-indexed dispatcher that routes each inbound
// update to at most one handler.
package state
