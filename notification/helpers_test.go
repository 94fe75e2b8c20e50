package notification_test

import "github.com/fundwit/go-commons/types"

func notificationID(i int) types.ID {
	return types.ID(i)
}
