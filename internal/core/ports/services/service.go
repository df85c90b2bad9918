package services

// ServiceContainer holds instances of all the application services.
// It is built once at startup and handed to the handlers and the CLI.
type ServiceContainer struct {
	Export ExportSvcFacade
}
