package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewdispatch/infrastructure/config"
	"crewdispatch/infrastructure/scheduler"
	"crewdispatch/transport/httpapi"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(container *config.Container) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dispatch API server",
		Long: `Starts the HTTP API together with the background sweeps that expire
overdue job requests and purge trash past its retention window.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listenAddr == "" {
				listenAddr = container.Config.ListenAddr
			}

			handler := httpapi.NewHandler(httpapi.HandlerDeps{
				PoolJobs:             container.PoolJobsUseCase,
				ClaimJob:             container.ClaimJobUseCase,
				AssignJob:            container.AssignJobUseCase,
				ReturnJob:            container.ReturnJobUseCase,
				UpdateJobStatus:      container.UpdateJobStatusUseCase,
				CreateJob:            container.CreateJobUseCase,
				JobRequests:          container.JobRequestUseCase,
				WorkLogs:             container.WorkLogUseCase,
				Invoices:             container.InvoiceUseCase,
				Trash:                container.TrashUseCase,
				JobRepository:        container.JobRepository,
				JobRequestRepository: container.JobRequestRepository,
				AuditRepository:      container.AuditRepository,
				Metrics:              container.Metrics,
				Logger:               container.Logger,
			})

			sweeps, err := scheduler.New(
				container.Config.RequestExpirySchedule,
				container.Config.TrashPurgeSchedule,
				container.JobRequestUseCase,
				container.TrashUseCase,
				container.Metrics,
				container.Logger,
			)
			if err != nil {
				return err
			}
			sweeps.Start()
			defer sweeps.Stop()

			server := &http.Server{
				Addr:              listenAddr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				container.Logger.Info("API server listening", "addr", listenAddr)
				errCh <- server.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				container.Logger.Info("Shutting down", "signal", sig.String())
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides config)")

	return cmd
}
