// Program passforge generates passwords from the command line and can ask the
// separator advisor for readability suggestions.
package main

import (
	"os"

	"github.com/creachadair/command"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	root := &command.C{
		Name: command.ProgramName(),
		Help: `Generate passwords that contain every selected character type.

Passwords are drawn from lowercase letters, uppercase letters, digits and
symbols. At least one character of each enabled type is always present,
and the result is shuffled uniformly.

The suggest command asks the separator advisor configured by ADVISOR_URL,
ADVISOR_API_KEY and ADVISOR_MODEL for human-readable separators.`,

		Commands: []*command.C{
			generateCommand,
			suggestCommand,
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}
	command.RunOrFail(root.NewEnv(nil).MergeFlags(true), os.Args[1:])
}
