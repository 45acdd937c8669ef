// Package config provides the configuration of a subhubs run: input paths,
// confidence thresholds, the fallback subhub, report options and the
// optional .subhubs.yaml file that supplies project defaults.
package config
