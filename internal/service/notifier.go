package service

// Notifier receives events after the state they describe is durable.
// Publish must not block the caller.
type Notifier interface {
	Publish(event interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
