// Package server implements the HTTP API of the segmentation service:
// audio upload and segmentation, health, configuration and Prometheus
// metrics endpoints.
package server
