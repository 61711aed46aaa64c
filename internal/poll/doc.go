// Package poll keeps a cached, periodically refreshed view of a V-ZUG
// appliance.
//
// A Poller owns an api.Client and rebuilds the device aggregates on
// independent tickers: device state frequently, firmware update status
// and the configuration tree rarely. The identity aggregate (MAC address
// and model) is fetched once at startup and treated as immutable.
//
// Consumers either pull the latest snapshot with Latest or subscribe to a
// channel that fires after every successful refresh. Failed refreshes
// keep the previous snapshot; persistent failures therefore surface as
// stale data rather than errors mid-stream.
package poll
