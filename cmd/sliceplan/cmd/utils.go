package cmd

import (
	"bufio"
	"fmt"
	"os"
)

// confirmIfExists checks whether path exists, asking the user for
// confirmation before proceeding if it does. It returns true if the
// caller should go ahead: either the file doesn't exist, or the user
// answered yes.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return true, nil
		}
		return false, statErr
	}
	return askForConfirmation(msg), nil
}

// askForConfirmation prints msg and reads a y/n answer from stdin,
// defaulting to no on a bare ENTER.
func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	defaultInput := byte('N')

	for {
		input, _ := reader.ReadString('\n')
		if len(input) == 0 {
			return defaultInput == 'Y'
		}
		c := input[0]
		if c == '\n' {
			c = defaultInput
		}
		switch c {
		case 'Y', 'y':
			return true
		case 'N', 'n':
			return false
		}
	}
}
