package evcs

// Endpoints 全部已声明的接口
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointLogin, EndpointLogout, EndpointUserInfo, EndpointRefreshToken,

		EndpointTenantList, EndpointTenantPage, EndpointTenantGet, EndpointTenantCreate,
		EndpointTenantUpdate, EndpointTenantDelete, EndpointTenantTree, EndpointTenantChildren,
		EndpointTenantStatus, EndpointTenantCheckCode, EndpointTenantStatistics,

		EndpointUserList, EndpointUserGet, EndpointUserCreate, EndpointUserUpdate, EndpointUserDelete,
		EndpointUserResetPassword, EndpointUserRoles, EndpointUserAssignRoles,

		EndpointStationList, EndpointStationGet, EndpointStationCreate, EndpointStationUpdate,
		EndpointStationDelete, EndpointStationChargers, EndpointStationStatus,

		EndpointChargerList, EndpointChargerGet, EndpointChargerCreate, EndpointChargerUpdate,
		EndpointChargerDelete, EndpointChargerStatus, EndpointChargerControl,

		EndpointOrderList, EndpointOrderGet, EndpointOrderCancel, EndpointOrderStatistics, EndpointOrderExport,

		EndpointBillingPlanList, EndpointBillingPlanPage, EndpointBillingPlanGet, EndpointBillingPlanSegments,
		EndpointBillingPlanCreate, EndpointBillingPlanUpdate, EndpointBillingPlanDelete,
		EndpointBillingPlanSetDefault, EndpointBillingPlanSaveSegs, EndpointBillingPlanClone,

		EndpointDashboardStats, EndpointDashboardChargerStatus, EndpointRecentOrders,
		EndpointChargingTrend, EndpointRevenueTrend, EndpointStationRanking,
	}
}

// DevelopingEndpoints 开发中的接口
func DevelopingEndpoints() []Endpoint {
	var out []Endpoint
	for _, e := range Endpoints() {
		if e.Developing {
			out = append(out, e)
		}
	}
	return out
}
