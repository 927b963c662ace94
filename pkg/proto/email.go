package proto

import (
	"context"

	"google.golang.org/grpc"
)

const EmailService_SendDiscountOffer_FullMethodName = "/email.EmailService/SendDiscountOffer"

type SendDiscountOfferRequest struct {
	Email        string `json:"email"`
	DiscountCode string `json:"discount_code"`
	Percentage   int32  `json:"percentage"`
	Message      string `json:"message"`
}

type SendDiscountOfferResponse struct {
	MessageId string `json:"message_id"`
}

type EmailServiceClient interface {
	SendDiscountOffer(ctx context.Context, in *SendDiscountOfferRequest, opts ...grpc.CallOption) (*SendDiscountOfferResponse, error)
}

type emailServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEmailServiceClient(cc grpc.ClientConnInterface) EmailServiceClient {
	return &emailServiceClient{cc}
}

func (c *emailServiceClient) SendDiscountOffer(ctx context.Context, in *SendDiscountOfferRequest, opts ...grpc.CallOption) (*SendDiscountOfferResponse, error) {
	out := new(SendDiscountOfferResponse)
	if err := c.cc.Invoke(ctx, EmailService_SendDiscountOffer_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type EmailServiceServer interface {
	SendDiscountOffer(context.Context, *SendDiscountOfferRequest) (*SendDiscountOfferResponse, error)
}

func RegisterEmailServiceServer(s grpc.ServiceRegistrar, srv EmailServiceServer) {
	s.RegisterService(&EmailService_ServiceDesc, srv)
}

func _EmailService_SendDiscountOffer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendDiscountOfferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmailServiceServer).SendDiscountOffer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: EmailService_SendDiscountOffer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EmailServiceServer).SendDiscountOffer(ctx, req.(*SendDiscountOfferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var EmailService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "email.EmailService",
	HandlerType: (*EmailServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendDiscountOffer", Handler: _EmailService_SendDiscountOffer_Handler},
	},
	Streams: []grpc.StreamDesc{},
}
