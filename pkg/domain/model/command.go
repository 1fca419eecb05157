package model

// Command is a shell command line and the directory it runs in
type Command struct {
	Line string
	Dir  string
}
