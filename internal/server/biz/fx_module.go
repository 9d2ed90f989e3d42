package biz

import (
	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewAuthService),
	fx.Provide(NewOrganizationService),
	fx.Provide(NewMembershipService),
	fx.Provide(NewClientService),
	fx.Provide(NewInvoiceService),
)
