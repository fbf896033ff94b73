package redirect

import "golang.org/x/sys/unix"

// dupFD duplicates from onto to. Dup3 covers arm64, which has no dup2
// syscall.
func dupFD(from, to int) error {
	return unix.Dup3(from, to, 0)
}
