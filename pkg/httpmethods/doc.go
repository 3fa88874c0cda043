// Package httpmethods executes a single HTTP request against a verb-routed echo service and
// folds the outcome into one normalized Result.
//
// An invocation is a three stage pipeline: Build turns Parameters into a PreparedRequest, a
// Transport sends it exactly once, and Normalize maps the response or transport error into a
// Result. Only a status code of exactly 200 counts as success.
package httpmethods
