// Package services implements the driving port interfaces.
// Services validate input and orchestrate calls to driven ports
// (adapters); they never touch SQL or files directly.
package services
