package redisrepo

import "fmt"

const ns = "tixlife:v1"

func KeyEventSnapshot(eventID int64) string {
	return fmt.Sprintf("%s:event:%d:snapshot", ns, eventID)
}

func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyIdemHold(eventID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:holds:%d:%s", ns, eventID, idemKey)
}

func ChannelEventsChanged() string {
	return ns + ":events:changed"
}
