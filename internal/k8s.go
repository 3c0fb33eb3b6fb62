package internal

import (
	"context"
	"errors"
	"fmt"
	"golang.org/x/sync/errgroup"
	"k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"time"
)

// MaxConfigMapBytes is the largest bundle a ConfigMap can hold.
const MaxConfigMapBytes = 1048576

var ErrBundleTooLarge = errors.New("bundle too large for a config map")

type K8sClient struct {
	clientSet kubernetes.Interface
	namespace string
}

func NewK8sClient(k8sConfig *rest.Config, namespace string) (K8sClient, error) {
	clientSet, err := kubernetes.NewForConfig(k8sConfig)
	if err != nil {
		return K8sClient{}, err
	}
	return NewK8sClientFromInterface(clientSet, namespace), nil
}

func NewK8sClientFromInterface(clientSet kubernetes.Interface, namespace string) K8sClient {
	return K8sClient{clientSet: clientSet, namespace: namespace}
}

// ConfigMapName is the config map a profile's bundle is published to.
func ConfigMapName(prefix string, p BuildProfile) string {
	if prefix == "" {
		return p.Name
	}
	return prefix + "-" + p.Name
}

func (kc *K8sClient) CreateConfigMap(ctx context.Context, name string, p BuildProfile, bundle []byte) error {
	configMap := &v1.ConfigMap{
		ObjectMeta: meta.ObjectMeta{
			Name:      name,
			Namespace: kc.namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "incbundle",
				"incbundle/profile":            p.Name,
			},
		},
		Data: map[string]string{
			p.OutputFilename: string(bundle),
		},
	}
	_, err := kc.clientSet.CoreV1().ConfigMaps(kc.namespace).Create(ctx, configMap, meta.CreateOptions{})
	return err
}

func (kc *K8sClient) GetConfigMap(ctx context.Context, name string) (*v1.ConfigMap, error) {
	return kc.clientSet.CoreV1().ConfigMaps(kc.namespace).Get(ctx, name, meta.GetOptions{})
}

func (kc *K8sClient) DeleteConfigMap(ctx context.Context, configMapName string) error {
	deletePolicy := meta.DeletePropagationForeground
	if err := kc.clientSet.CoreV1().ConfigMaps(kc.namespace).Delete(ctx, configMapName, meta.DeleteOptions{
		PropagationPolicy: &deletePolicy,
	}); err != nil {
		if !k8serrors.IsNotFound(err) { // Ignore error if ConfigMap not found
			return err
		}
		return nil
	}
	// Wait for the deletion to complete
	err := wait.PollUntilContextTimeout(ctx, 200*time.Millisecond, 5*time.Second, true, func(ctx context.Context) (done bool, err error) {
		_, getErr := kc.clientSet.CoreV1().ConfigMaps(kc.namespace).Get(ctx, configMapName, meta.GetOptions{})
		if k8serrors.IsNotFound(getErr) {
			return true, nil
		}
		return false, getErr
	})
	if err != nil {
		return fmt.Errorf("error waiting for config map '%s' deletion: %w", configMapName, err)
	}
	return nil
}

// PublishBundle replaces the profile's config map with one holding bundle.
func (kc *K8sClient) PublishBundle(ctx context.Context, prefix string, p BuildProfile, bundle []byte) (string, error) {
	if len(bundle) > MaxConfigMapBytes {
		return "", fmt.Errorf("%w: profile '%s' is %d bytes, max %d", ErrBundleTooLarge, p.Name, len(bundle), MaxConfigMapBytes)
	}
	name := ConfigMapName(prefix, p)
	setupCtx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()
	if err := kc.DeleteConfigMap(setupCtx, name); err != nil {
		return "", err
	}
	if err := kc.CreateConfigMap(setupCtx, name, p, bundle); err != nil {
		return "", err
	}
	return name, nil
}

// DeleteBundles removes the config maps of all given profiles in parallel.
func (kc *K8sClient) DeleteBundles(ctx context.Context, prefix string, ps []BuildProfile) error {
	cleanupCtx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()
	eg, egCtx := errgroup.WithContext(cleanupCtx)
	for _, p := range ps {
		p := p
		eg.Go(func() error {
			return kc.DeleteConfigMap(egCtx, ConfigMapName(prefix, p))
		})
	}
	return eg.Wait()
}
