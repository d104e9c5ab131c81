// Package control
// Author: momentics <momentics@gmail.com>
//
// Host-side control layer for hioload-pool: configuration loading, logger
// construction, Prometheus metrics export, and debug probes.
//
// Nothing here is required to run a pool. Hosts that configure pools from
// files, flags or environment use Config; hosts that scrape metrics register
// a PoolCollector.
package control
