// Package kube runs value-source commands inside Kubernetes pods.
package kube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Reasons pod selection can fail.
var (
	ErrNoPods        = errors.New("no pods match")
	ErrAmbiguousPods = errors.New("multiple pods match")
)

// PodSelectionError reports a selector that did not match exactly one pod.
// It wraps ErrNoPods or ErrAmbiguousPods.
type PodSelectionError struct {
	Selector   string
	Namespace  string
	Candidates []string
	Err        error
}

func (e *PodSelectionError) Error() string {
	ns := e.Namespace
	if ns == "" {
		ns = "<current>"
	}
	msg := fmt.Sprintf("%s selector %s in namespace %s", e.Err, e.Selector, ns)
	if len(e.Candidates) > 0 {
		msg += ": " + strings.Join(e.Candidates, ", ")
	}
	return msg
}

func (e *PodSelectionError) Unwrap() error {
	return e.Err
}

// Client lists pods and executes commands in them.
type Client interface {
	// Pods returns the names of pods matching a label selector. An empty
	// namespace means the client's current namespace.
	Pods(ctx context.Context, namespace, selector string) ([]string, error)

	// Exec runs a command in a pod and returns its trimmed standard output.
	// A non-zero remote exit is an *execute.CommandError.
	Exec(ctx context.Context, req ExecRequest) (string, error)
}

// ExecRequest identifies a command to run in one pod.
type ExecRequest struct {
	Namespace string
	Pod       string
	// Container is optional; empty selects the pod's default container.
	Container string
	Command   []string
}

// Target selects where a command runs.
type Target struct {
	PodSelector string
	Namespace   string
	Container   string
}

// Run executes command in the single pod matched by target. Zero or several
// matches fail before anything is executed.
func Run(ctx context.Context, client Client, target Target, command []string) (string, error) {
	log.Debug().
		Strs("command", command).
		Str("namespace", target.Namespace).
		Str("pod_selector", target.PodSelector).
		Str("container", target.Container).
		Msg("Executing in kubernetes")

	pods, err := client.Pods(ctx, target.Namespace, target.PodSelector)
	if err != nil {
		return "", fmt.Errorf("listing pods for selector %s: %w", target.PodSelector, err)
	}
	log.Debug().Strs("pods", pods).Msg("Found pods")

	switch len(pods) {
	case 0:
		return "", &PodSelectionError{Selector: target.PodSelector, Namespace: target.Namespace, Err: ErrNoPods}
	case 1:
	default:
		return "", &PodSelectionError{
			Selector:   target.PodSelector,
			Namespace:  target.Namespace,
			Candidates: pods,
			Err:        ErrAmbiguousPods,
		}
	}

	return client.Exec(ctx, ExecRequest{
		Namespace: target.Namespace,
		Pod:       pods[0],
		Container: target.Container,
		Command:   command,
	})
}
