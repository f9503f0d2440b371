// Package app contains the core application logic. It defines the main App
// struct and the operations propreg offers (generate, check, clean, watch and
// manifest), decoupled from any specific entrypoint like a CLI.
package app
