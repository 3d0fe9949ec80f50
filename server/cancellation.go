package server

// cancelAll cancels every in-flight call; handlers observe ctx.Done.
func (s *Server) cancelAll() {
	s.activeCalls.Range(func(id string, call *activeCall) bool {
		s.logger.Debug("cancelling in-flight call", "method", call.method, "elapsed", s.now().Sub(call.started))
		call.CancelFunc()
		s.activeCalls.Delete(id)
		return true
	})
}

// InFlight returns the number of requests currently being served.
func (s *Server) InFlight() int {
	return s.activeCalls.Len()
}
