package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile records the server's process id for init scripts. With lock set it
// also holds an exclusive flock so a second chess-server on the same path
// refuses to start.
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

func acquirePIDFile(path string, lock bool) (*pidFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open pid file %s: %w", path, err)
	}

	if lock {
		if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			f.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				if pid, ok := readPID(path); ok {
					return nil, fmt.Errorf("chess-server already running (pid %d holds %s)", pid, path)
				}
				return nil, fmt.Errorf("chess-server already running (%s is locked)", path)
			}
			return nil, fmt.Errorf("lock pid file %s: %w", path, err)
		}
	} else if pid, ok := readPID(path); ok && pid != os.Getpid() && processAlive(pid) {
		log.Printf("Warning: pid file %s names live process %d, overwriting", path, pid)
	}

	p := &pidFile{path: path, file: f, locked: lock}
	if err := p.write(os.Getpid()); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *pidFile) write(pid int) error {
	if err := p.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate pid file: %w", err)
	}
	if _, err := p.file.WriteAt([]byte(strconv.Itoa(pid)+"\n"), 0); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return p.file.Sync()
}

// Release removes the file and drops the lock. Removal happens while the lock
// is still held so a waiting instance never sees our stale pid.
func (p *pidFile) Release() error {
	if p == nil || p.file == nil {
		return nil
	}
	rmErr := os.Remove(p.path)
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	closeErr := p.file.Close()
	p.file = nil

	if rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("remove pid file: %w", rmErr)
	}
	return closeErr
}

// readPID parses the pid recorded at path. ok is false for a missing, empty
// or garbled file.
func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
