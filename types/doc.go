// Package types defines the shared record types and the structured error
// taxonomy of the MehsifAI SDK.
//
// Every surfaced failure is a *types.Error carrying one of the ErrorCode
// values. Errors created by the transport and materialization layers flow
// through the pipeline to the caller unchanged, so callers can branch on
// GetErrorCode without string matching.
package types
