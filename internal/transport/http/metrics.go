package httptransport

import "expvar"

var (
	metricLoginTotal  = expvar.NewInt("http_login_total")
	metricLoginFailed = expvar.NewInt("http_login_failed_total")

	metricRegisterTotal = expvar.NewInt("http_register_total")

	metricPlayRequests       = expvar.NewInt("http_play_requests_total")
	metricTransientResponses = expvar.NewInt("http_try_again_total")
)
