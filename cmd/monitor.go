package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server

	BurnIn         *expvar.Int
	ConvergeWindow *expvar.Int
	Chains         *expvar.Int
	MaxIters       *expvar.Int
	MaxSeconds     *expvar.Int
	RunTime        *expvar.Float
	TotalSamples   *expvar.Int
	Iterations     *expvar.Int

	AcceptRate  *expvar.Float
	Divergences *expvar.Int
	WorstRhat   *expvar.Float
}

// Start begins the monitor
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	m.info = expvar.NewMap("reparam-progress")
	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr: addr,
	}

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.BurnIn = expvar.NewInt("Burn-In")
	m.ConvergeWindow = expvar.NewInt("Convergence-Window")
	m.Chains = expvar.NewInt("Chain-Count")
	m.MaxIters = expvar.NewInt("Max-Iterations")
	m.MaxSeconds = expvar.NewInt("Max-Seconds")
	m.RunTime = expvar.NewFloat("Run-Time")
	m.TotalSamples = expvar.NewInt("Total-Samples")
	m.Iterations = expvar.NewInt("Iterations")

	m.AcceptRate = expvar.NewFloat("Accept-Rate")
	m.Divergences = expvar.NewInt("Divergences")
	m.WorstRhat = expvar.NewFloat("Worst-Rhat")

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
