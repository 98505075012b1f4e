package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           XTracker Monitor API
// @version         0.1.0
// @description     Goal-tracking reconciliation, summaries, and live updates.
// @host            localhost:8085
// @BasePath        /
// @schemes         http
