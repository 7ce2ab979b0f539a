package models

import (
	"github.com/Perkly/Perkly-Backend/providers/ledger"
	"github.com/Perkly/Perkly-Backend/services/wallet"
)

type WalletProvisioningResponse struct {
	UserID   int64  `json:"user_id"`
	WalletID string `json:"wallet_id,omitempty"`
	Status   string `json:"status"`
}

func (r WalletProvisioningResponse) ToWalletProvisioningResponse(p *wallet.WalletProvisioningModel) WalletProvisioningResponse {
	resp := WalletProvisioningResponse{
		UserID: p.UserID,
		Status: p.Status,
	}
	if p.ExternalWalletID.Valid {
		resp.WalletID = p.ExternalWalletID.String
	}
	return resp
}

type VoucherCollectionResponse struct {
	Vouchers []ledger.Voucher `json:"vouchers"`
	Count    int              `json:"count"`
}

func ToVoucherCollectionResponse(vouchers []ledger.Voucher) VoucherCollectionResponse {
	if vouchers == nil {
		vouchers = []ledger.Voucher{}
	}
	return VoucherCollectionResponse{
		Vouchers: vouchers,
		Count:    len(vouchers),
	}
}
