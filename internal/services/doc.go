// Package services contains the business logic between the HTTP
// handlers and the infrastructure packages: supplier configuration,
// remote file handling, the transformation runs and health reporting.
package services
