package handler

import (
	activitydomain "kidsweek-go/internal/domain/activity"
	invitedomain "kidsweek-go/internal/domain/invite"
	memberdomain "kidsweek-go/internal/domain/member"
	notificationdomain "kidsweek-go/internal/domain/notification"
	zonedomain "kidsweek-go/internal/domain/zone"
	"kidsweek-go/pkg/logger"
)

type Handlers struct {
	Members       *memberdomain.Service
	Zones         *zonedomain.Service
	Activities    *activitydomain.Service
	Notifications *notificationdomain.Engine
	Invites       *invitedomain.Service
	log           logger.Logger
}

func New(
	members *memberdomain.Service,
	zones *zonedomain.Service,
	activities *activitydomain.Service,
	notifications *notificationdomain.Engine,
	invites *invitedomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Members:       members,
		Zones:         zones,
		Activities:    activities,
		Notifications: notifications,
		Invites:       invites,
		log:           log,
	}
}
