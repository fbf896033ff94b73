//go:build unix && !linux

package redirect

import "golang.org/x/sys/unix"

func dupFD(from, to int) error {
	return unix.Dup2(from, to)
}
