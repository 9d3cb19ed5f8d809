// Package diagnostic collects registration-time problems found while
// checking schemas, cast plans, dispatch pipelines and component wiring.
//
// Problems are accumulated instead of failing on the first one so a caller
// sees every missing handler or unknown provider in a single report.
package diagnostic
